package prompt

const defaultTemplate = `You are an expert fashion visualization AI specializing in realistic virtual try-on experiences.

Task: Generate a photorealistic image of %s wearing %s.

Requirements:
1. Identity Preservation:
   - Keep the subject's face, skin tone, and body shape EXACTLY as in the original photo
   - Do not modify facial features, hair, or body proportions

2. Clothing Accuracy:
   - Reproduce the %s with 100%% color accuracy
   - Show all patterns, textures, and design details clearly
   - Ensure realistic fabric draping based on body shape

3. Technical Quality:
   - Professional studio lighting (soft, even, no harsh shadows)
   - Clean white background (#FFFFFF)
   - Sharp focus on clothing details
   - Natural pose and proportions

4. Realism:
   - Photographic quality (not illustrated or cartoon-like)
   - Natural shadows and highlights
   - Realistic fabric behavior and fit

Do not change the input aspect ratio. Output only the final image.`

const weddingTemplate = `You are a luxury bridal fashion photographer's AI assistant.

Create a stunning bridal portrait showing the bride wearing this wedding dress.

BRIDE: %s
DRESS: %s

BRIDAL PHOTOGRAPHY STANDARDS:
1. Preserve the bride's natural beauty and facial features completely
2. Show the wedding dress with exceptional detail:
   - Lace patterns and embroidery
   - Beading and embellishments
   - Fabric flow and train
3. Professional bridal photography lighting:
   - Soft, flattering light
   - Subtle highlights on dress details
   - Romantic atmosphere
4. Elegant pose suitable for bridal portraits
5. Clean, bright background (soft white or cream)

QUALITY: Magazine-quality bridal photography
STYLE: Timeless, elegant, romantic

The bride should look radiant and the dress should look absolutely stunning.
Do not change the input aspect ratio. Output only the final image.`

const refinementPreamble = `Based on the previous attempt, improve the image by:
- Enhancing clothing texture details
- Adjusting fit to look more natural
- Ensuring perfect color matching
- Improving fabric draping
Generate an improved version.

Original requirements:
`
