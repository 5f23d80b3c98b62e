package validator

const PersonInstruction = `Analyze this image and determine:
1. Does it contain a clearly visible person? (full body or upper body)
2. If yes, describe the person briefly (gender, approximate age, clothing worn, pose)
3. Is the person's body clearly visible (not obscured)?
4. Is the pose suitable for virtual try-on (standing, front-facing preferred)?

Return EXACTLY one JSON object (no markdown, no extra text):
{
    "is_person": true/false,
    "description": "brief description",
    "body_visible": true/false,
    "pose_suitable": true/false
}`

const GarmentInstruction = `Analyze this image and determine:
1. Is this a clothing item (dress, shirt, pants, jacket, etc.)?
2. If yes, identify the specific type
3. Describe key details (color, pattern, style, material, design elements)
4. What is the primary color?
5. Are there any patterns or textures?

Return EXACTLY one JSON object (no markdown, no extra text):
{
    "is_clothing": true/false,
    "clothing_type": "type",
    "description": "detailed description",
    "color": "primary color",
    "pattern": "pattern or texture description"
}`

// DressInstruction asks for a tagged dress schema. The tags are Korean; the id
// is an English slug usable as a file name.
const DressInstruction = `이 드레스 이미지를 상세히 분석하여 다음을 생성해주세요:

스키마: 아래 JSON 구조에 맞춰 한국어 태그만 사용해 작성하세요.
   - 중요 규칙 (반드시 지켜야 함):
     - id: name과 동일한 규칙으로 영문으로 작성하세요. 파일명으로 사용되므로 공백은 언더스코어(_)로, 특수문자는 피하세요.
       name이 "A라인_비즈_새틴 드레스"이면 id는 "a-line_bead_satin" 형식입니다.
       예시: "a-line_bead_satin", "sheath_satin"
     - 아래 제공된 허용 어휘 목록에서만 선택해 정확히 같은 단어와 띄어쓰기를 사용하세요.
     - 허용 목록에 없는 단어, 변형, 동의어, 영어 사용 금지 (id 제외).
     - 배열 항목 순서는 중요하지 않으나, 의미 중복은 피하세요.
     - color는 한국어 단일 문자열로 작성하세요. 예: "화이트", "아이보리", "블러쉬".
     - name 형식은 반드시 "라인_소재 드레스" 또는 "라인_디테일_소재 드레스"로 작성하세요.
       디테일이 있을 경우 대표적인 디테일 1개만 사용하세요.
       예시: "A라인_비즈_새틴 드레스", "시스_새틴 드레스"
     - **개수 제한 (매우 중요)**:
       * dress_lengths: 정확히 1개만 선택
       * keyword: 1~3개만 선택 (최대 3개)

허용 어휘:
- lines: ["티렝스", "미니", "A라인", "엠파이어라인", "시스", "H라인", "머메이드", "벨라인", "볼가운", "프린세스라인"]
- materials: ["비즈", "새틴", "미카도실크", "오간자", "레이스", "쉬폰", "튤(망사)", "도비실크", "크레이프", "타프타실크"]
- necklines: ["브이넥", "하트넥", "오프숄더", "하이넥", "보트넥", "스퀘어넥", "일루전 넥", "스트레이트 어크로스", "언밸런스", "홀터넥"]
- sleeves: ["슬리브리스", "롱슬리브", "7부", "숏슬리브", "일루전슬리브", "비숍슬리브", "벨슬리브", "드레이프 슬리브", "퍼프슬리브"]
- keywords: ["럭셔리", "드라마틱", "클래식", "우아한", "로맨틱", "빈티지", "모던", "미니멀", "귀여운", "볼륨", "포멀", "로얄", "시크", "도시적인"]
- details: ["비즈", "시퀸", "긴 트레인", "드레이핑", "코르셋", "일루전 백", "아플리케 레이스", "리본", "러플", "레이어드 스커트", "플리츠"]
- dress_lengths: ["종아리 길이", "발목 길이", "스윕 트레인(바닥 닿는 길이)", "채플 트레인(뒤가 약간 끌림)", "캐시드럴 트레인(뒤가 길게 끌림)", "미니", "무릎 길이"]

응답은 반드시 아래 JSON 형식으로만 출력하세요(설명 금지):
{
  "prompt": "",
  "schema": {
    "id": "sheath_v-neck_3quarter_crepe",
    "name": "A라인_비즈_새틴 드레스",
    "line": ["허용된 lines 값들"],
    "material": ["허용된 materials 값들"],
    "color": "화이트",
    "neckline": ["허용된 necklines 값들"],
    "sleeve": ["허용된 sleeves 값들"],
    "keyword": ["허용된 keywords 값들"],
    "detail": ["허용된 details 값들"],
    "dress_lengths": ["허용된 dress_lengths 값들"]
  }
}`
